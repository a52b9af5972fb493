package track

import (
	"regexp"
	"strconv"
)

var isoDuration = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// ParseISODuration converts an ISO-8601 duration such as PT1H2M3S into seconds.
// Anything unparseable yields 0.
func ParseISODuration(s string) int {
	match := isoDuration.FindStringSubmatch(s)
	if match == nil {
		return 0
	}

	var total int
	for i, unit := range []int{3600, 60, 1} {
		if match[i+1] == "" {
			continue
		}
		n, err := strconv.Atoi(match[i+1])
		if err != nil {
			return 0
		}
		total += n * unit
	}
	return total
}
