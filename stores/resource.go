package stores

import (
	"context"
	"fmt"
	"net/url"
)

// Messages override the error shown when the server gives none. Empty fields fall back
// to the client's generic normalization.
type Messages struct {
	Load   string
	Create string
	Update string
	Delete string
}

// Resource is a Collection addressed as <path>/<id>.
type Resource[T any] struct {
	*Collection[T]
	path     string
	idOf     func(T) int
	messages Messages
}

func newResource[T any](name, path string, api API, idOf func(T) int, messages Messages) *Resource[T] {
	return &Resource[T]{
		Collection: newCollection[T](name, api),
		path:       path,
		idOf:       idOf,
		messages:   messages,
	}
}

func (r *Resource[T]) itemPath(id int) string {
	return fmt.Sprintf("%s/%d", r.path, id)
}

func (r *Resource[T]) hasID(id int) func(T) bool {
	return func(item T) bool { return r.idOf(item) == id }
}

// FetchAll replaces the list with the server's.
func (r *Resource[T]) FetchAll(ctx context.Context) error {
	return r.fetchAll(ctx, nil)
}

func (r *Resource[T]) fetchAll(ctx context.Context, query url.Values) (err error) {
	defer r.track(r.messages.Load)(&err)

	var items []T
	if err := r.api.Get(ctx, r.path, query, &items); err != nil {
		return err
	}
	r.setItems(items)
	return nil
}

// FetchOne loads a record and makes it current.
func (r *Resource[T]) FetchOne(ctx context.Context, id int) (item T, err error) {
	defer r.track(r.messages.Load)(&err)

	if err := r.api.Get(ctx, r.itemPath(id), nil, &item); err != nil {
		return item, err
	}
	r.setCurrent(item)
	return item, nil
}

// Create posts form and appends the created record.
func (r *Resource[T]) Create(ctx context.Context, form any) (item T, err error) {
	defer r.track(r.messages.Create)(&err)

	if err := r.api.Post(ctx, r.path, form, &item); err != nil {
		return item, err
	}
	r.appendItem(item)
	return item, nil
}

// Update sends a partial update and replaces the listed record with the server's.
func (r *Resource[T]) Update(ctx context.Context, id int, form any) (item T, err error) {
	defer r.track(r.messages.Update)(&err)

	if err := r.api.Put(ctx, r.itemPath(id), form, &item); err != nil {
		return item, err
	}
	r.replaceWhere(r.hasID(id), item)
	return item, nil
}

func (r *Resource[T]) Delete(ctx context.Context, id int) (err error) {
	defer r.track(r.messages.Delete)(&err)

	if err := r.api.Delete(ctx, r.itemPath(id)); err != nil {
		return err
	}
	r.removeWhere(r.hasID(id))
	return nil
}

// Search returns the items matching term, or all of them for an empty term.
func search[T interface{ Matches(string) bool }](c *Collection[T], term string) []T {
	if term == "" {
		return c.Items()
	}
	return c.Filter(func(item T) bool { return item.Matches(term) })
}
