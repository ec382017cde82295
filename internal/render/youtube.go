package render

import "regexp"

const youTubeIDLength = 11

var youTubePattern = regexp.MustCompile(`^.*(youtu.be/|v/|u/\w/|embed/|watch\?v=|&v=)([^#&?]*).*`)

// ExtractYouTubeID pulls the video id out of any of the common YouTube URL
// shapes. Only 11-character ids are accepted.
func ExtractYouTubeID(raw string) (string, bool) {
	match := youTubePattern.FindStringSubmatch(raw)
	if len(match) < 3 || len(match[2]) != youTubeIDLength {
		return "", false
	}
	return match[2], true
}
