package mailbox

import (
	"time"

	"github.com/lu-zhengda/mailroom/internal/domain"
)

// SampleAccounts are the demo identities seeded into an empty database.
func SampleAccounts() []domain.Account {
	return []domain.Account{
		{ID: "account-1", Label: "Alicia Keys", Email: "alicia@example.com"},
		{ID: "account-2", Label: "Bob Marley", Email: "bob@example.com"},
	}
}

// SampleLabels covers every label used by SampleMessages.
func SampleLabels() []domain.Label {
	return []domain.Label{
		{Name: "work", Color: "#3b82f6"},
		{Name: "important", Color: "#ef4444"},
		{Name: "personal", Color: "#22c55e"},
		{Name: "promotions", Color: "#f59e0b"},
		{Name: "security", Color: "#a855f7"},
		{Name: "events", Color: "#06b6d4"},
		{Name: "travel", Color: "#14b8a6"},
		{Name: "music", Color: "#ec4899"},
		{Name: "shopping", Color: "#f97316"},
		{Name: "spam", Color: "#6b7280"},
		{Name: "archive", Color: "#78716c"},
	}
}

func sampleTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

// SampleMessages is the demo mailbox for SampleAccounts.
func SampleMessages() []domain.Message {
	return []domain.Message{
		{
			ID:          "mail-1",
			AccountID:   "account-1",
			From:        domain.Address{Name: "Olivia Davis", Email: "olivia.davis@example.com"},
			Subject:     "Project Update & Next Steps",
			Body:        "Hi team,\n\nJust a quick update on the project. We've hit milestone A and are on track for milestone B. Please review the attached document for detailed progress.\n\nNext steps involve finalizing the UI mockups. Let's sync on this tomorrow.\n\nBest,\nOlivia",
			Date:        sampleTime("2024-10-24T10:30:00Z"),
			IsRead:      false,
			Labels:      []string{"work", "important"},
			Folder:      domain.FolderInbox,
			Attachments: []domain.Attachment{{Name: "Progress_Report.pdf", Size: "2.5MB", Type: "pdf"}},
		},
		{
			ID:        "mail-2",
			AccountID: "account-1",
			From:      domain.Address{Name: "John Doe", Email: "john.doe@example.com"},
			Subject:   "Weekend Plans - BBQ?",
			Body:      "Hey!\n\nAre you free this weekend? Thinking of hosting a BBQ on Saturday if the weather holds up. Let me know if you can make it!\n\nCheers,\nJohn",
			Date:      sampleTime("2024-10-23T14:15:00Z"),
			IsRead:    true,
			Labels:    []string{"personal"},
			Folder:    domain.FolderInbox,
		},
		{
			ID:        "mail-3",
			AccountID: "account-1",
			From:      domain.Address{Name: "Acme Corp Newsletter", Email: "newsletter@acme.com"},
			Subject:   "This Month's Top Deals!",
			Body:      "Hello valued customer,\n\nCheck out our exclusive deals for October! Save up to 50% on select items. Don't miss out!\n\n[Link to Deals]\n\nThanks,\nThe Acme Team",
			Date:      sampleTime("2024-10-22T09:00:00Z"),
			IsRead:    false,
			Labels:    []string{"promotions"},
			Folder:    domain.FolderInbox,
		},
		{
			ID:        "mail-4",
			AccountID: "account-2",
			From:      domain.Address{Name: "Your Bank", Email: "security@yourbank.com"},
			Subject:   "Security Alert: New Device Login",
			Body:      "Dear Customer,\n\nWe detected a new login to your account from an unrecognized device. If this was not you, please secure your account immediately.\n\n[Link to Secure Account]\n\nSincerely,\nYour Bank Security Team",
			Date:      sampleTime("2024-10-24T11:00:00Z"),
			IsRead:    false,
			Labels:    []string{"important", "security"},
			Folder:    domain.FolderInbox,
		},
		{
			ID:        "mail-5",
			AccountID: "account-1",
			From:      domain.Address{Name: "Jane Smith", Email: "jane.smith@example.com"},
			Subject:   "Re: Project Update & Next Steps",
			Body:      "Hi Olivia,\n\nThanks for the update! The progress looks great. I've reviewed the document and have a few minor comments. I'll share them during our sync tomorrow.\n\nLooking forward to it.\n\nBest,\nJane",
			Date:      sampleTime("2024-10-24T12:05:00Z"),
			IsRead:    true,
			Labels:    []string{"work"},
			Folder:    domain.FolderSent,
		},
		{
			ID:        "mail-5b",
			AccountID: "account-2",
			From:      domain.Address{Name: "Jane Smith", Email: "jane.smith@example.com"},
			Subject:   "Re: Project Update & Next Steps",
			Body:      "Hi Olivia,\n\nThanks for the update! The progress looks great. I've reviewed the document and have a few minor comments. I'll share them during our sync tomorrow.\n\nLooking forward to it.\n\nBest,\nJane",
			Date:      sampleTime("2024-10-24T12:05:00Z"),
			IsRead:    true,
			Labels:    []string{"work"},
			Folder:    domain.FolderSent,
		},
		{
			ID:        "mail-6",
			AccountID: "account-2",
			From:      domain.Address{Name: "Draft Email", Email: "alicia@example.com"},
			Subject:   "Follow up on client meeting",
			Body:      "Hi [Client Name],\n\nJust wanted to follow up on our meeting from yesterday regarding...",
			Date:      sampleTime("2024-10-21T16:00:00Z"),
			IsRead:    true,
			Labels:    []string{},
			Folder:    domain.FolderDrafts,
		},
		{
			ID:        "mail-7",
			AccountID: "account-2",
			From:      domain.Address{Name: "Tech Conference", Email: "events@techconf.com"},
			Subject:   "Your Ticket for TechCon 2024",
			Body:      "Hi Bob,\n\nYour ticket for TechCon 2024 is attached. We can't wait to see you there!\n\nBest,\nThe TechCon Team",
			Date:      sampleTime("2024-10-20T11:45:00Z"),
			IsRead:    true,
			Labels:    []string{"work", "events"},
			Folder:    domain.FolderInbox,
		},
		{
			ID:        "mail-8",
			AccountID: "account-2",
			From:      domain.Address{Name: "Online Store", Email: "deals@shoponline.com"},
			Subject:   "You Won a Prize!",
			Body:      "CONGRATULATIONS! You've won a special prize. Click here to claim it NOW!",
			Date:      sampleTime("2024-10-19T18:00:00Z"),
			IsRead:    false,
			Labels:    []string{"spam"},
			Folder:    domain.FolderJunk,
		},
		{
			ID:        "mail-9",
			AccountID: "account-2",
			From:      domain.Address{Name: "Old Project Group", Email: "archive@projects.com"},
			Subject:   "Archived: Project Phoenix Files",
			Body:      "This thread contains all files for the now-completed Project Phoenix. Archiving for records.",
			Date:      sampleTime("2023-01-15T09:30:00Z"),
			IsRead:    true,
			Labels:    []string{"archive"},
			Folder:    domain.FolderArchive,
		},
		{
			ID:        "mail-10",
			AccountID: "account-1",
			From:      domain.Address{Name: "Galaxy Airlines", Email: "noreply@galaxy-airlines.com"},
			Subject:   "Your flight details for G-1234",
			Body:      "Dear Alicia,\n\nYour flight G-1234 to London is confirmed for October 28th. Please find your e-ticket attached.\n\nThank you for flying with us.",
			Date:      sampleTime("2024-10-25T08:00:00Z"),
			IsRead:    false,
			Labels:    []string{"travel", "important"},
			Folder:    domain.FolderInbox,
		},
		{
			ID:        "mail-11",
			AccountID: "account-1",
			From:      domain.Address{Name: "Maria Garcia", Email: "maria.garcia@example.com"},
			Subject:   "Re: Dinner on Friday?",
			Body:      "Hey Alicia,\n\nThat sounds great! I'm free after 7 PM. Let's go to that new Italian place we talked about.\n\nBest,\nMaria",
			Date:      sampleTime("2024-10-24T18:30:00Z"),
			IsRead:    true,
			Labels:    []string{"personal"},
			Folder:    domain.FolderInbox,
		},
		{
			ID:        "mail-12",
			AccountID: "account-1",
			From:      domain.Address{Name: "Creative Team", Email: "creative-team@work.com"},
			Subject:   "Design Mockups Attached",
			Body:      "Hi Team,\n\nPlease find the latest design mockups for the new landing page attached. Let me know your feedback by EOD.\n\nThanks,\nAlicia",
			Date:      sampleTime("2024-10-25T11:00:00Z"),
			IsRead:    true,
			Labels:    []string{"work"},
			Folder:    domain.FolderSent,
		},
		{
			ID:        "mail-13",
			AccountID: "account-1",
			From:      domain.Address{Name: "Social-Connect", Email: "notification@social-connect.net"},
			Subject:   "You have 5 unread messages!",
			Body:      "You have new messages waiting for you. Log in to see what you've missed!",
			Date:      sampleTime("2024-10-25T10:15:00Z"),
			IsRead:    false,
			Labels:    []string{"spam"},
			Folder:    domain.FolderJunk,
		},
		{
			ID:        "mail-14",
			AccountID: "account-1",
			From:      domain.Address{Name: "Self", Email: "alicia@example.com"},
			Subject:   "Notes for Q4 planning",
			Body:      "Remember to bring up budget allocation for the new marketing campaign and the hiring plan for the design team.",
			Date:      sampleTime("2024-10-24T15:00:00Z"),
			IsRead:    true,
			Labels:    []string{},
			Folder:    domain.FolderDrafts,
		},
		{
			ID:        "mail-15",
			AccountID: "account-1",
			From:      domain.Address{Name: "ArtStation", Email: "digest@artstation.com"},
			Subject:   "Your weekly digest is here",
			Body:      "Check out this week's most popular artwork and trending artists.",
			Date:      sampleTime("2024-10-23T09:00:00Z"),
			IsRead:    true,
			Labels:    []string{"promotions"},
			Folder:    domain.FolderInbox,
		},
		{
			ID:        "mail-16",
			AccountID: "account-2",
			From:      domain.Address{Name: "CloudServices Inc.", Email: "security@cloudservices.com"},
			Subject:   "Action Required: Verify Your Login",
			Body:      "Hi Bob,\n\nA new device signed into your account. If this was you, you can ignore this email. If not, please secure your account immediately.",
			Date:      sampleTime("2024-10-25T07:45:00Z"),
			IsRead:    false,
			Labels:    []string{"security", "important"},
			Folder:    domain.FolderInbox,
		},
		{
			ID:        "mail-17",
			AccountID: "account-2",
			From:      domain.Address{Name: "Ziggy", Email: "ziggy@example.com"},
			Subject:   "Weekend Jam Session",
			Body:      "Hey Bob, you free for a jam session this Saturday afternoon? Got some new tunes I want to try out.",
			Date:      sampleTime("2024-10-24T14:20:00Z"),
			IsRead:    true,
			Labels:    []string{"music", "personal"},
			Folder:    domain.FolderInbox,
		},
		{
			ID:        "mail-18",
			AccountID: "account-2",
			From:      domain.Address{Name: "The Band", Email: "band@example.com"},
			Subject:   "Re: Rehearsal schedule",
			Body:      "Confirming rehearsal for this Thursday at 6 PM. See you all there.",
			Date:      sampleTime("2024-10-23T17:00:00Z"),
			IsRead:    true,
			Labels:    []string{"music"},
			Folder:    domain.FolderSent,
		},
		{
			ID:        "mail-19",
			AccountID: "account-2",
			From:      domain.Address{Name: "Rita", Email: "rita@example.com"},
			Subject:   "FW: Old concert photos",
			Body:      "Check out these photos from the '08 tour! Good times.",
			Date:      sampleTime("2023-05-10T12:00:00Z"),
			IsRead:    true,
			Labels:    []string{"archive"},
			Folder:    domain.FolderArchive,
		},
		{
			ID:        "mail-20",
			AccountID: "account-2",
			From:      domain.Address{Name: "Guitar World", Email: "orders@guitarworld.com"},
			Subject:   "Your order has been shipped!",
			Body:      "Your order #GW-5678, containing a new set of strings and a capo, has been shipped and will arrive in 3-5 business days.",
			Date:      sampleTime("2024-10-22T16:30:00Z"),
			IsRead:    true,
			Labels:    []string{"shopping"},
			Folder:    domain.FolderInbox,
		},
		{
			ID:        "mail-21",
			AccountID: "account-2",
			From:      domain.Address{Name: "Delivery Service", Email: "track@delivery-pro.net"},
			Subject:   "URGENT: Your package is waiting",
			Body:      "We were unable to deliver your package. Please click here to reschedule delivery.",
			Date:      sampleTime("2024-10-21T10:00:00Z"),
			IsRead:    false,
			Labels:    []string{"spam"},
			Folder:    domain.FolderJunk,
		},
	}
}
