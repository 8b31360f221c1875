package utils

// Map applies f to every item.
func Map[T any, O any](items []T, f func(T) O) []O {
	result := make([]O, len(items))
	for i, item := range items {
		result[i] = f(item)
	}
	return result
}

// Filter keeps the items for which condition holds.
func Filter[T any](items []T, condition func(T) bool) []T {
	filtered := make([]T, 0, len(items))
	for _, item := range items {
		if condition(item) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

func Copy[T any](items []T) []T {
	if items == nil {
		return nil
	}
	c := make([]T, len(items))
	copy(c, items)
	return c
}

// Reverse reverses items in place.
func Reverse[T any](items []T) {
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
}
