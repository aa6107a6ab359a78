package scene

import "fmt"

// bookmarkNone marks an absent bookmark component.
const bookmarkNone = -1

// Bookmark is a reproducible key identifying one command-execution site in
// a scene graph. The player tracks executed bookmarks to guarantee
// at-most-once dispatch; two bookmarks are equal iff every component
// matches, with absent components encoded consistently.
type Bookmark struct {
	Scene    ID
	Section  SectionID
	Line     int
	Response int
}

// SectionBookmark keys the section-level commands of a commands-only node.
func SectionBookmark(scene ID, section SectionID) Bookmark {
	return Bookmark{Scene: scene, Section: section, Line: bookmarkNone, Response: bookmarkNone}
}

// LineBookmark keys the commands attached to one line.
func LineBookmark(scene ID, section SectionID, line int) Bookmark {
	return Bookmark{Scene: scene, Section: section, Line: line, Response: bookmarkNone}
}

// ResponseBookmark keys the commands attached to one visible response.
func ResponseBookmark(scene ID, section SectionID, response int) Bookmark {
	return Bookmark{Scene: scene, Section: section, Line: bookmarkNone, Response: response}
}

// String renders the bookmark for logs.
func (b Bookmark) String() string {
	s := fmt.Sprintf("%s/%s", b.Scene, b.Section)
	if b.Line != bookmarkNone {
		s = fmt.Sprintf("%s/line[%d]", s, b.Line)
	}
	if b.Response != bookmarkNone {
		s = fmt.Sprintf("%s/response[%d]", s, b.Response)
	}
	return s
}
