// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "github.com/google/uuid"

// JokeCategory groups jokes on the companion jokes page.
type JokeCategory string

const (
	JokeCategoryDark       JokeCategory = "dark"
	JokeCategoryJokes300   JokeCategory = "jokes300"
	JokeCategoryKnockKnock JokeCategory = "knockknock"
	JokeCategoryArmy       JokeCategory = "army"
)

// JokeCategories lists all joke categories in display order.
var JokeCategories = []JokeCategory{
	JokeCategoryDark,
	JokeCategoryJokes300,
	JokeCategoryKnockKnock,
	JokeCategoryArmy,
}

// Label returns the human-readable name for the category.
func (c JokeCategory) Label() string {
	switch c {
	case JokeCategoryDark:
		return "Dark humor"
	case JokeCategoryJokes300:
		return "Jokes for 300"
	case JokeCategoryKnockKnock:
		return "Knock-knock jokes"
	case JokeCategoryArmy:
		return "Army jokes"
	}
	return string(c)
}

// Joke is a single joke text filed under a category.
type Joke struct {
	ID       uuid.UUID    `json:"id"`
	Category JokeCategory `json:"category"`
	Text     string       `json:"text"`
}
