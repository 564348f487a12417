package components

import "github.com/artpar/postdeck/internal/tree"

// CollectionChosenMsg asks for a collection to be loaded.
type CollectionChosenMsg struct {
	UID  string
	Name string
}

// RequestChosenMsg is sent when Enter is pressed on a request leaf.
type RequestChosenMsg struct {
	Path tree.Path
}

// CopyMsg asks for Content to be put on the clipboard. What names the
// content in the notification.
type CopyMsg struct {
	Content string
	What    string
}
