// Package choice mediates every decision the operator makes: which provider,
// what to search for and which result to act on.
package choice

import (
	"context"

	"github.com/samber/lo"
	"github.com/streamscout/streamscout/media"
	"github.com/streamscout/streamscout/provider"
)

// CancelMessage is shown when the operator backs out of a choice.
const CancelMessage = "Operation cancelled."

// Option is a provider as presented to the operator.
type Option struct {
	Label    string
	Category provider.Category
}

// Resolver is a choice surface. A false ok means no selection was made.
type Resolver interface {
	ChooseProvider(ctx context.Context, options []Option) (index int, ok bool, err error)
	AskQuery(ctx context.Context, provider string) (query string, ok bool, err error)
	ChooseResult(ctx context.Context, table media.Table) (index int, ok bool, err error)
	Ask(ctx context.Context, question string) (answer string, ok bool, err error)
	Notify(ctx context.Context, message string)
}

// Options lists descriptors in registry order.
func Options(descriptors []*provider.Descriptor) []Option {
	return lo.Map(descriptors, func(d *provider.Descriptor, _ int) Option {
		return Option{Label: d.DisplayName, Category: d.Category}
	})
}
