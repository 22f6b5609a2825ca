package category

import "strings"

type Category struct {
	Id   int    `json:"id"`
	Name string `json:"name"`
}

// DefaultNames seed a categories collection that was never written.
var DefaultNames = []string{"Food & Dining", "Transportation", "Entertainment", "Other"}

func Defaults() []Category {
	categories := make([]Category, 0, len(DefaultNames))
	for i, name := range DefaultNames {
		categories = append(categories, Category{Id: i + 1, Name: name})
	}
	return categories
}

// NormalizeName trims the name and collapses internal whitespace runs to one space.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

func Names(categories []Category) []string {
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.Name)
	}
	return names
}
