// Package catalog holds the category tables that drive classification.
//
// A Catalog is an ordered list of categories, each with a keyword list and a
// pool of image URLs, plus a designated fallback category. Classify counts
// keyword occurrences in a listing's text and picks the best category; Image
// draws a representative image for a category. Catalogs can be loaded from
// YAML so categories and locales change without a rebuild.
package catalog
