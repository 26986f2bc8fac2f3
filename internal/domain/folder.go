package domain

import "fmt"

// Folder is the coarse visibility bucket a message lives in.
type Folder string

const (
	FolderInbox   Folder = "inbox"
	FolderSent    Folder = "sent"
	FolderDrafts  Folder = "drafts"
	FolderJunk    Folder = "junk"
	FolderTrash   Folder = "trash"
	FolderArchive Folder = "archive"
)

var folders = []Folder{FolderInbox, FolderDrafts, FolderSent, FolderJunk, FolderTrash, FolderArchive}

// Folders returns every folder in navigation order.
func Folders() []Folder {
	return append([]Folder(nil), folders...)
}

func (f Folder) Valid() bool {
	for _, v := range folders {
		if f == v {
			return true
		}
	}
	return false
}

func (f Folder) Title() string {
	switch f {
	case FolderInbox:
		return "Inbox"
	case FolderSent:
		return "Sent"
	case FolderDrafts:
		return "Drafts"
	case FolderJunk:
		return "Junk"
	case FolderTrash:
		return "Trash"
	case FolderArchive:
		return "Archive"
	}
	return string(f)
}

// ParseFolder validates s as a folder name.
func ParseFolder(s string) (Folder, error) {
	f := Folder(s)
	if !f.Valid() {
		return "", fmt.Errorf("unknown folder %q", s)
	}
	return f, nil
}
