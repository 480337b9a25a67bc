package loader

import "github.com/lefeck/apacheconf/ast"

// astCache memoizes canonical-id to parsed AST within one load, so an
// include target reached from several places in a config tree is only
// lexed and parsed once (§4.5). The Reader is still consulted on every
// include, since it supplies the canonical id the cache is keyed on.
type astCache struct {
	entries map[string]*ast.Config
}

func newASTCache() *astCache {
	return &astCache{entries: make(map[string]*ast.Config)}
}

func (c *astCache) get(id string) (*ast.Config, bool) {
	cfg, ok := c.entries[id]
	return cfg, ok
}

func (c *astCache) put(id string, cfg *ast.Config) {
	c.entries[id] = cfg
}
