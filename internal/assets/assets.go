package assets

import (
	"embed"
	"fmt"
)

// stylePath is the embedded stylesheet applied to every briefing.
const stylePath = "styles/briefing.css"

//go:embed styles/briefing.css
var styles embed.FS

// DefaultStyle returns the briefing stylesheet.
func DefaultStyle() (string, error) {
	content, err := styles.ReadFile(stylePath)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrStyleNotFound, stylePath)
	}
	return string(content), nil
}
