package rank

import "strings"

// CleanedRecipients splits a multi-recipient field into trimmed, non-blank
// entries.
func CleanedRecipients(field string) []string {
	var recipients []string
	for _, part := range strings.Split(field, ",") {
		if part = strings.TrimSpace(part); part != "" {
			recipients = append(recipients, part)
		}
	}
	return recipients
}

// LastRecipient returns the entry of field being typed, or "" when the
// field holds no entries.
func LastRecipient(field string) string {
	recipients := CleanedRecipients(field)
	if len(recipients) == 0 {
		return ""
	}
	return recipients[len(recipients)-1]
}

// SortRecipientboxTypeahead ranks users for a recipient box whose full
// value is field. Only the last comma separated entry is used as the query
// and no topic is taken into account.
func (e *Engine) SortRecipientboxTypeahead(field string, users []Recipient, stream string) []Recipient {
	return e.SortRecipients(users, LastRecipient(field), Context{Stream: stream})
}
