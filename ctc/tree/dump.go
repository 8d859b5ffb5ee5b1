package tree

import (
	"fmt"

	"github.com/kr/pretty"

	"ctclang.dev/go/ctc/relation"
)

// prettyRelation renders a single relation the way ast.rs's pretty_print
// rendered one node with Rust's "{:#?}" — here via kr/pretty's Go analog.
func prettyRelation(r relation.Relation) string {
	return fmt.Sprintf("%s", pretty.Sprint(r))
}
