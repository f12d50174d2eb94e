package kernel

import (
	"strconv"
	"strings"
)

// A Name is a hierarchical name with tokens separated by dots, such as
// "Top.Dut.Rx[3]". Process and event names follow this convention so that
// the duplicate-name check can operate per scope.
type Name struct {
	Tokens []NameToken
}

// NameToken is one dot-separated element of a name.
type NameToken struct {
	ElemName string
	Index    []int
}

// ParseName parses a name string and returns a Name object.
func ParseName(sname string) Name {
	tokens := strings.Split(sname, ".")
	name := Name{Tokens: make([]NameToken, len(tokens))}

	for i, token := range tokens {
		name.Tokens[i] = parseNameToken(token)
	}

	return name
}

func parseNameToken(token string) NameToken {
	bracketMustMatch(token)

	ts := strings.Split(token, "[")
	elemName := ts[0]

	indices := make([]int, len(ts)-1)
	for i := 1; i < len(ts); i++ {
		index, err := strconv.Atoi(ts[i][0 : len(ts[i])-1])
		if err != nil {
			panic("name index must be an integer")
		}

		indices[i-1] = index
	}

	return NameToken{ElemName: elemName, Index: indices}
}

func bracketMustMatch(name string) {
	open := 0
	for _, c := range name {
		if c == '[' {
			open++
		} else if c == ']' {
			open--
			if open < 0 {
				panic("name brackets must match")
			}
		}
	}

	if open != 0 {
		panic("name brackets must match")
	}
}

// NameMustBeValid panics if the name does not follow the naming convention:
// non-empty dot-separated elements, balanced square brackets, and no
// characters that break the hierarchy syntax.
func NameMustBeValid(name string) {
	defer func() {
		if r := recover(); r != nil {
			panic("name " + name + " is not valid: " + r.(string))
		}
	}()

	n := ParseName(name)
	for _, token := range n.Tokens {
		tokenMustBeValid(token)
	}
}

func tokenMustBeValid(token NameToken) {
	if token.ElemName == "" {
		panic("name element must not be empty")
	}

	invalidChars := []string{"\"", "'", " ", "\t"}
	for _, c := range invalidChars {
		if strings.Contains(token.ElemName, c) {
			panic("name element must not contain " + strconv.Quote(c))
		}
	}
}

// BuildName builds a name from a parent scope and an element name.
func BuildName(parentName, elementName string) string {
	if parentName == "" {
		return elementName
	}

	return parentName + "." + elementName
}

// BuildNameWithIndex builds an indexed name such as "Top.Worker[4]".
func BuildNameWithIndex(parentName, elementName string, index int) string {
	return BuildName(parentName,
		elementName+"["+strconv.Itoa(index)+"]")
}

// scopeOf returns the parent scope of a hierarchical name, or "" for a
// top-level name.
func scopeOf(name string) string {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return ""
	}

	return name[:i]
}
