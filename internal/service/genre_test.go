package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapGenre(t *testing.T) {
	cases := []struct {
		categories []string
		want       string
	}{
		{[]string{"Juvenile Fiction"}, "Fiction"},
		{[]string{"Nonfiction / History"}, "Non-Fiction"},
		{[]string{"Science Fiction & Fantasy"}, "Science Fiction"},
		{[]string{"Young Adult Fiction"}, "Young Adult"},
		{[]string{"Children's Books"}, "Children's"},
		{[]string{"Classic Literature"}, "Classic Literature"},
		{[]string{"Mystery & Detective"}, "Mystery"},
		{[]string{"Epic Fantasy"}, "Fantasy"},
		{[]string{"Biography & Autobiography"}, "Biography"},
		{[]string{"Contemporary Romance"}, "Romance"},
		{[]string{"Legal Thriller"}, "Thriller"},
		{[]string{"Cooking"}, "Other"},
		{[]string{"Cooking", "Mystery"}, "Mystery"},
		{nil, "Other"},
		{[]string{}, "Other"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, mapGenre(tc.categories), "categories %v", tc.categories)
	}
}
