package repository

import (
	"context"
	"errors"
)

// PageRequest carries client-specified paging parameters.  PageNumber is
// 1-based.
type PageRequest struct {
	PageNumber int
	PageSize   int
}

// StartIndex derives the row offset for the requested page.
func (p PageRequest) StartIndex() int {
	return (p.PageNumber - 1) * p.PageSize
}

// PageResult is one page of projected rows plus the total count of rows
// across all pages.  RecordNumber mirrors the requested page size, not the
// number of items actually returned; the last page of a 25-row set with
// size 10 still reports RecordNumber 10.  Kept that way for wire
// compatibility with existing clients.
type PageResult[R any] struct {
	Items        []R `json:"items"`
	PageNumber   int `json:"pageNumber"`
	RecordNumber int `json:"recordNumber"`
	TotalCount   int `json:"totalCount"`
}

// EntityStore is the per-entity persistence adapter the generic repository
// drives.  Implementations own the SQL for one table; Find and Remove
// report ErrNotFound for missing ids.  Page must fetch at most limit rows
// starting at offset, in the store's stable order.
type EntityStore[T any] interface {
	Find(ctx context.Context, id int) (*T, error)
	List(ctx context.Context) ([]T, error)
	Count(ctx context.Context) (int, error)
	Page(ctx context.Context, offset, limit int) ([]T, error)
	Insert(ctx context.Context, e *T) (*T, error)
	Update(ctx context.Context, e *T) error
	Remove(ctx context.Context, id int) error
}

// MapFunc projects a stored entity into a transfer shape.
type MapFunc[T, R any] func(*T) R

// Repo is the generic CRUD repository over an EntityStore.  It holds no
// state beyond the store handle and is safe for concurrent use.
type Repo[T any] struct {
	store EntityStore[T]
}

// NewRepo wraps an entity store in a generic repository.
func NewRepo[T any](store EntityStore[T]) *Repo[T] {
	return &Repo[T]{store: store}
}

// Get fetches an entity by optional id.  A nil id short-circuits to
// ErrNotFound without touching the store.
func (r *Repo[T]) Get(ctx context.Context, id *int) (*T, error) {
	if id == nil {
		return nil, ErrNotFound
	}
	return r.store.Find(ctx, *id)
}

// GetAll returns every row in store order.  Intended for small reference
// tables only; use GetAllPaged elsewhere.
func (r *Repo[T]) GetAll(ctx context.Context) ([]T, error) {
	return r.store.List(ctx)
}

// Add persists a new entity and returns it with its generated id.
func (r *Repo[T]) Add(ctx context.Context, e *T) (*T, error) {
	return r.store.Insert(ctx, e)
}

// Update rewrites an existing entity.
func (r *Repo[T]) Update(ctx context.Context, e *T) error {
	return r.store.Update(ctx, e)
}

// Delete removes an entity by id.  The entity is fetched first so a
// missing row surfaces as ErrNotFound rather than a driver fault.
func (r *Repo[T]) Delete(ctx context.Context, id int) error {
	if _, err := r.store.Find(ctx, id); err != nil {
		return err
	}
	return r.store.Remove(ctx, id)
}

// Exists reports whether an entity with the given id is present.
func (r *Repo[T]) Exists(ctx context.Context, id int) (bool, error) {
	_, err := r.store.Find(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetAllPaged runs an unfiltered count, fetches exactly one page of
// entities and projects each row through the mapper.  It is a free
// function because the projected type parameter cannot live on a method.
// At most PageSize full entities are ever held in memory.
func GetAllPaged[T, R any](ctx context.Context, r *Repo[T], pr PageRequest, project MapFunc[T, R]) (*PageResult[R], error) {
	total, err := r.store.Count(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := r.store.Page(ctx, pr.StartIndex(), pr.PageSize)
	if err != nil {
		return nil, err
	}
	items := make([]R, 0, len(rows))
	for i := range rows {
		items = append(items, project(&rows[i]))
	}
	return &PageResult[R]{
		Items:        items,
		PageNumber:   pr.PageNumber,
		RecordNumber: pr.PageSize,
		TotalCount:   total,
	}, nil
}
