package datefilter

import "errors"

// FilterName is the name the reformatter registers under in filter chains.
const FilterName = "datetime"

// Filter transforms a single value.
type Filter interface {
	Filter(value any) (any, error)
}

// FilterFunc adapts a function to Filter
type FilterFunc func(value any) (any, error)

func (fn FilterFunc) Filter(value any) (any, error) {
	return fn(value)
}

var _ Filter = &Reformatter{}

// Filter passes failures through unless the reformatter was built with
// WithStrictErrors, in which case the error is returned with the original value.
func (r *Reformatter) Filter(value any) (any, error) {
	result := r.run(value)
	if r.cfg.StrictErrors && result.Err != nil && !errors.Is(result.Err, ErrNotText) {
		return value, result.Err
	}
	return result.Value, nil
}

// Chain runs filters in order and stops at the first error.
func Chain(filters ...Filter) Filter {
	chain := make([]Filter, 0, len(filters))
	for _, filter := range filters {
		if filter != nil {
			chain = append(chain, filter)
		}
	}

	return FilterFunc(func(value any) (any, error) {
		var err error
		for _, filter := range chain {
			value, err = filter.Filter(value)
			if err != nil {
				return value, err
			}
		}
		return value, nil
	})
}
