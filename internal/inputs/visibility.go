package inputs

// Viewer describes who is looking at a document's fields. ContactID may be
// empty for a creator viewing their own document without a signatory row.
type Viewer struct {
	IsCreator   bool
	IsSignatory bool
	ContactID   string
}

// Owner is the resolved contact identity of the document owner, matched by
// the owner's email/phone against the contact store, together with the
// owner's own signatory visibility flag.
type Owner struct {
	ContactID string
	IsVisible bool
}

// Visible decides whether one field is shown to one viewer. recipients is the
// field's effective recipient set: explicit contact recipients plus expanded
// group members. Rules are evaluated in order, first match wins:
//
//  1. The creator sees everything.
//  2. On a private document, a recipient sees the field.
//  3. On a public document, a field with no recipients at all, or whose
//     recipient list excludes an owner not flagged visible, is open to every
//     signatory; any other field is shown only to its recipients.
//  4. On a private document, a field with no recipients is open to every
//     signatory of the document.
//  5. Everyone else sees nothing; the field is omitted from the response
//     entirely, not returned empty.
func Visible(documentPrivate bool, recipients []string, viewer Viewer, owner Owner) bool {
	if viewer.IsCreator {
		return true
	}

	if documentPrivate && viewer.ContactID != "" && contains(recipients, viewer.ContactID) {
		return true
	}

	if !documentPrivate {
		openToAll := len(recipients) == 0 ||
			(!owner.IsVisible && !contains(recipients, owner.ContactID))
		if openToAll {
			return viewer.IsSignatory
		}
		return viewer.ContactID != "" && contains(recipients, viewer.ContactID)
	}

	if documentPrivate && len(recipients) == 0 && viewer.IsSignatory {
		return true
	}

	return false
}

func contains(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
