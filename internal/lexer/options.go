package lexer

// DefaultCommentMarker starts a comment when no marker is configured.
const DefaultCommentMarker = "#"

type Options struct {
	// CommentMarker starts a comment running to the end of the line
	// wherever a token could begin. Empty means DefaultCommentMarker.
	CommentMarker string
}

func (o Options) marker() string {
	if o.CommentMarker == "" {
		return DefaultCommentMarker
	}
	return o.CommentMarker
}
