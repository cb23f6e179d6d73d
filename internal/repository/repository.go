package repository

import "errors"

// ErrSlugExists is returned by Create when another link already holds the slug.
var ErrSlugExists = errors.New("slug already exists")

const linksTable = "links"

var linkColumns = []string{"id", "slug", "url", "created_at"}
