package service

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// PostsPerPage is the page size of every post listing.
const PostsPerPage = 10

// ParsePageNumber reads the page query parameter. Anything that is not a
// positive integer means the first page; a number too large for int means
// the last page once clamped.
func ParsePageNumber(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		if errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(strings.TrimSpace(raw), "-") {
			return math.MaxInt
		}
		return 1
	}
	if n < 1 {
		return 1
	}
	return n
}

// clampPage fits the requested page into [1, numPages]. An empty collection
// still has one page.
func clampPage(requested, total, perPage int) (number, numPages int) {
	numPages = (total + perPage - 1) / perPage
	if numPages < 1 {
		numPages = 1
	}

	number = requested
	if number < 1 {
		number = 1
	}
	if number > numPages {
		number = numPages
	}

	return number, numPages
}
