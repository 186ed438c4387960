package developer

import "context"

// DataSource is the backend the store reads developers from and creates them
// in. Every method may block; the store calls them off its engine goroutine.
type DataSource interface {
	// LoadAll returns every developer.
	LoadAll(ctx context.Context) ([]Developer, error)

	// LoadByCategory returns the developers of one category.
	LoadByCategory(ctx context.Context, category Category) ([]Developer, error)

	// AddDeveloper creates a developer and returns it as stored.
	AddDeveloper(
		ctx context.Context,
		category Category,
		name string,
		skills []string,
	) (Developer, error)
}
