package resolver

import (
	"github.com/MLH-Fellowship/hooknames/internal/detector"
	"github.com/MLH-Fellowship/hooknames/internal/parser"
)

// fileCache holds per-resolve state keyed by original source path: parsed
// files, parse failures, and candidate pools. It guarantees each file is
// parsed at most once and each pool is collected at most once per resolve
// call. Pools shrink as confirmed declarators are consumed, so two hooks
// reported at the same position cannot claim the same declarator twice.
type fileCache struct {
	files  map[string]*parser.File
	failed map[string]error
	pools  map[string][]*parser.VariableDeclarator
}

func newFileCache() *fileCache {
	return &fileCache{
		files:  make(map[string]*parser.File),
		failed: make(map[string]error),
		pools:  make(map[string][]*parser.VariableDeclarator),
	}
}

// file returns the parsed AST for source, parsing content on first touch.
// Parse failures are cached too, so a broken file taints its own hooks
// without being re-parsed for each of them.
func (c *fileCache) file(source, content string) (*parser.File, error) {
	if err, ok := c.failed[source]; ok {
		return nil, err
	}
	if f, ok := c.files[source]; ok {
		return f, nil
	}
	f, err := parser.Parse(content)
	if err != nil {
		c.failed[source] = err
		return nil, err
	}
	c.files[source] = f
	return f, nil
}

// pool returns the candidate pool for source, collecting it on first touch.
func (c *fileCache) pool(source string, file *parser.File) []*parser.VariableDeclarator {
	if p, ok := c.pools[source]; ok {
		return p
	}
	p := detector.CollectPotentialHookDeclarations(file)
	c.pools[source] = p
	return p
}

// takeConfirmed finds the confirmed hook declarator at the given original
// line, removes it from the cached pool, and returns it together with the
// remaining pool. A nil declarator means no candidate at that line is a
// confirmed hook declaration.
func (c *fileCache) takeConfirmed(source string, file *parser.File, line int) (*parser.VariableDeclarator, []*parser.VariableDeclarator) {
	pool := c.pool(source, file)
	for i, candidate := range pool {
		if candidate.Line == line && detector.IsConfirmedHookDeclaration(candidate) {
			remaining := make([]*parser.VariableDeclarator, 0, len(pool)-1)
			remaining = append(remaining, pool[:i]...)
			remaining = append(remaining, pool[i+1:]...)
			c.pools[source] = remaining
			return candidate, remaining
		}
	}
	return nil, pool
}
