package backend

import (
	"time"

	"github.com/sarchlab/rxstore/developer"
)

// Builder can build backend services.
type Builder struct {
	readDelay   time.Duration
	createDelay time.Duration
	seed        map[developer.Category][]developer.Developer
}

// MakeBuilder creates a builder with the default latencies and the default
// seed data.
func MakeBuilder() Builder {
	return Builder{
		readDelay:   DefaultReadDelay,
		createDelay: DefaultCreateDelay,
		seed: map[developer.Category][]developer.Developer{
			developer.CategorySenior: SeniorDevelopers(),
			developer.CategoryJunior: JuniorDevelopers(),
		},
	}
}

// WithReadDelay sets how long loading developers takes.
func (b Builder) WithReadDelay(d time.Duration) Builder {
	b.readDelay = d
	return b
}

// WithCreateDelay sets how long adding a developer takes.
func (b Builder) WithCreateDelay(d time.Duration) Builder {
	b.createDelay = d
	return b
}

// WithNoDelay removes all the artificial latency.
func (b Builder) WithNoDelay() Builder {
	b.readDelay = 0
	b.createDelay = 0

	return b
}

// WithSeed replaces the developers of a category the service starts with.
func (b Builder) WithSeed(
	category developer.Category,
	devs []developer.Developer,
) Builder {
	if category == developer.CategoryAll || !category.IsValid() {
		panic("cannot seed category " + string(category))
	}

	seed := make(map[developer.Category][]developer.Developer, len(b.seed))
	for c, d := range b.seed {
		seed[c] = d
	}
	seed[category] = devs
	b.seed = seed

	return b
}

// Build creates a new service.
func (b Builder) Build() *Service {
	s := &Service{
		byCategory:  make(map[developer.Category][]developer.Developer),
		order:       []developer.Category{developer.CategorySenior, developer.CategoryJunior},
		readDelay:   b.readDelay,
		createDelay: b.createDelay,
	}

	for _, c := range s.order {
		devs := cloneAll(b.seed[c])
		for i := range devs {
			devs[i].Category = c
		}
		s.byCategory[c] = devs
	}

	return s
}

// SeniorDevelopers returns the senior developers a default service starts
// with.
func SeniorDevelopers() []developer.Developer {
	return []developer.Developer{
		{Name: "Awesome Dev", Skills: []string{"JavaScript", "C#", "Fullstack"}},
		{Name: "Pro Dev", Skills: []string{"C++", "C#", "Backend"}},
		{Name: "Old-School Champion Dev", Skills: []string{"C++", "C", "Assembly"}},
	}
}

// JuniorDevelopers returns the junior developers a default service starts
// with.
func JuniorDevelopers() []developer.Developer {
	return []developer.Developer{
		{Name: "Beginner Dev", Skills: []string{"JavaScript", "HTML", "CSS"}},
		{Name: "So-called Dev", Skills: []string{"If", "Else", "For"}},
		{Name: "Kinda Dev", Skills: []string{"CSS", "HTML"}},
	}
}
