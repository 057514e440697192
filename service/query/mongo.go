package query

/*
	Package `query` provides an interface for querying mongo db.
	It is basically nothing but a wrap of
	https://github.com/mongodb/mongo-go-driver
	so please read the driver document for any detail.
*/

import (
	"fmt"

	"github.com/shelterseek/goapi/base/ctx"
	"github.com/shelterseek/goapi/domain"
)

var (
	// ErrNotFound is mongo document not found error
	ErrNotFound = fmt.Errorf("document not found")

	// ErrDuplicateKey is an error when violating unique index
	ErrDuplicateKey = fmt.Errorf("duplicate key")

	// ErrCollScan is error for unindexed query
	ErrCollScan = fmt.Errorf("COLLSCAN is not allowed")
)

type patchOp struct {
	patchMany bool
}

// PatchOp is an alias for functional argument
type PatchOp func(*patchOp)

// WithPatchMany specifies patchMany setting. To patch all entries selected, set patchMany = true.
func WithPatchMany(patchMany bool) PatchOp {
	return func(o *patchOp) {
		o.patchMany = patchMany
	}
}

// Mongo abstracts the mongo layer.
type Mongo interface {
	// Insert inserts a new document to the table
	Insert(context ctx.Ctx, table domain.Table, insert interface{}) error

	// FindOne gets data from the table
	FindOne(context ctx.Ctx, table domain.Table, query, result interface{}) error

	// Count returns counting for matched entries in the table
	Count(context ctx.Ctx, table domain.Table, selector interface{}) (n int, err error)

	// Upsert updates an entry if the selector already exists,
	// and inserts the entry otherwise.
	Upsert(context ctx.Ctx, table domain.Table, selector, update interface{}) error

	// Search sorts order by `sort` argument (ex "timestamp" ascending, or
	// "-timestamp" descending). If `sort` is "", the sort action is skipped
	// and MongoDB does not guarantee the order of query results.
	Search(context ctx.Ctx, table domain.Table, offset, limit int, sort string, query, results interface{}) error

	// Remove removes an entry from the table.
	// Returns ErrNotFound if selector does not match any documents.
	Remove(context ctx.Ctx, table domain.Table, selector interface{}) error

	// RemoveAll removes all entries matching the selector from the table
	RemoveAll(context ctx.Ctx, table domain.Table, selector interface{}) (removedCnt int64, err error)

	// Patch patches an entry; if the selector does not exist, returns
	// ErrNotFound. To patch all entries selected, set WithPatchMany(true).
	Patch(context ctx.Ctx, table domain.Table, selector, update interface{}, ops ...PatchOp) error

	// FindOneAndPatch atomically patches the matched entry and decodes the
	// updated document into result. Returns ErrNotFound if the selector does
	// not match any documents.
	FindOneAndPatch(context ctx.Ctx, table domain.Table, selector, update, result interface{}) error

	// Increment atomically increases a field number on the matched entry and
	// decodes the updated document into result. Returns ErrNotFound if the
	// selector does not match any documents.
	Increment(context ctx.Ctx, table domain.Table, selector, result interface{}, field string, inc interface{}) error

	// Distinct returns the distinct values of field over documents matching
	// the query.
	Distinct(context ctx.Ctx, table domain.Table, field string, query interface{}) ([]interface{}, error)
}
