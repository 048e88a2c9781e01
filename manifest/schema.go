package manifest

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// schemaSource constrains a decoded manifest. #Config is closed, so it also
// rejects fields the Go struct would never produce.
const schemaSource = `
#Config: {
	project?: {
		name?:    string
		version?: string
	}
	runtime: {
		allocator:    "tracing" | "arena"
		"arena-slab": int & >0
	}
	vector: {
		"parallel-threshold": int & >=0
		"parallel-workers":   int & >=0
	}
	diagnostics: {
		verbosity:  int & >=-4 & <=5
		"log-file": string
	}
	store: {
		path: string & !=""
	}
}
`

// Validate checks m against the manifest schema.
func Validate(m *Manifest) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource)
	if err := schema.Err(); err != nil {
		return fmt.Errorf("manifest schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))

	val := ctx.Encode(m)
	if err := val.Err(); err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	if err := def.Unify(val).Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("invalid manifest: %w", err)
	}
	return nil
}
