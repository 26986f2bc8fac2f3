package mailbox

import "github.com/lu-zhengda/mailroom/internal/domain"

// moves lists the folders a message may leave each folder for. Sent mail
// never moves, and drafts only leave by being sent. Permanent deletion from
// trash is handled by Delete.
var moves = map[domain.Folder][]domain.Folder{
	domain.FolderInbox:   {domain.FolderArchive, domain.FolderTrash, domain.FolderJunk},
	domain.FolderArchive: {domain.FolderInbox, domain.FolderTrash},
	domain.FolderJunk:    {domain.FolderInbox, domain.FolderTrash},
	domain.FolderTrash:   {domain.FolderInbox},
	domain.FolderDrafts:  {domain.FolderSent, domain.FolderDrafts},
}

// CanMove reports whether a message in from may be moved to to.
func CanMove(from, to domain.Folder) bool {
	for _, f := range moves[from] {
		if f == to {
			return true
		}
	}
	return false
}

// restorable folders are the ones Restore pulls mail out of.
func restorable(f domain.Folder) bool {
	return f == domain.FolderArchive || f == domain.FolderJunk || f == domain.FolderTrash
}
