package roster

import (
	"encoding/json"
	"fmt"
	"strings"
)

// OwnerKind discriminates the ownership variants a machine note can encode.
type OwnerKind string

const (
	// OwnerMember is a machine assigned to a regular group member.
	OwnerMember OwnerKind = "member"
	// OwnerVisitor is a machine assigned to a visiting researcher.
	OwnerVisitor OwnerKind = "visitor"
	// OwnerStudent is a machine assigned to a student.
	OwnerStudent OwnerKind = "student"
	// OwnerReserved marks a machine that requires a reservation before use.
	OwnerReserved OwnerKind = "reserved"
	// OwnerUnowned marks a machine with no ownership note.
	OwnerUnowned OwnerKind = "unowned"
)

// Owner is the parsed ownership tag of a machine. Name is empty for the
// Reserved and Unowned kinds.
type Owner struct {
	Kind OwnerKind `json:"kind"`
	Name string    `json:"name,omitempty"`
}

// ParseOwner interprets a free-text ownership note.
//
// The grammar is intentionally small: an empty note means unowned, the
// literal "Reservation Required" means reserved, a "(Student)" or
// "(Visitor)" suffix tags the name in front of it, and anything else is
// taken verbatim as a member name. Notes never fail to parse.
func ParseOwner(note string) Owner {
	note = strings.TrimSpace(note)
	if note == "" {
		return Owner{Kind: OwnerUnowned}
	}
	if note == "Reservation Required" {
		return Owner{Kind: OwnerReserved}
	}
	if name, ok := strings.CutSuffix(note, "(Student)"); ok {
		return Owner{Kind: OwnerStudent, Name: strings.TrimRight(name, " \t")}
	}
	if name, ok := strings.CutSuffix(note, "(Visitor)"); ok {
		return Owner{Kind: OwnerVisitor, Name: strings.TrimRight(name, " \t")}
	}
	return Owner{Kind: OwnerMember, Name: note}
}

// String renders the owner the way the note column displays it.
func (o Owner) String() string {
	switch o.Kind {
	case OwnerReserved:
		return "Reservation required"
	case OwnerUnowned:
		return ""
	default:
		return o.Name
	}
}

// Mark returns the single-letter marker shown next to visitor and student
// names in the viewers.
func (o Owner) Mark() string {
	switch o.Kind {
	case OwnerVisitor:
		return "v"
	case OwnerStudent:
		return "s"
	default:
		return ""
	}
}

// UnmarshalJSON validates the kind on the way in so a corrupted snapshot
// surfaces as a decode error rather than an impossible variant.
func (o *Owner) UnmarshalJSON(data []byte) error {
	type raw Owner
	var r raw
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	switch r.Kind {
	case OwnerMember, OwnerVisitor, OwnerStudent, OwnerReserved, OwnerUnowned:
		*o = Owner(r)
		return nil
	default:
		return fmt.Errorf("unknown owner kind %q", r.Kind)
	}
}
