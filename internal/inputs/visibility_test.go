package inputs

import "testing"

func TestVisibleCreatorSeesEverything(t *testing.T) {
	viewer := Viewer{IsCreator: true}
	for _, private := range []bool{true, false} {
		if !Visible(private, []string{"someone-else"}, viewer, Owner{}) {
			t.Errorf("creator denied field on private=%v document", private)
		}
	}
}

func TestVisiblePrivateDocument(t *testing.T) {
	owner := Owner{ContactID: "owner-contact", IsVisible: true}
	cases := []struct {
		name       string
		recipients []string
		viewer     Viewer
		want       bool
	}{
		{
			name:       "recipient sees targeted field",
			recipients: []string{"c1", "c2"},
			viewer:     Viewer{IsSignatory: true, ContactID: "c2"},
			want:       true,
		},
		{
			name:       "non-recipient sees nothing",
			recipients: []string{"c1"},
			viewer:     Viewer{IsSignatory: true, ContactID: "c2"},
			want:       false,
		},
		{
			name:       "untargeted field open to any signatory",
			recipients: nil,
			viewer:     Viewer{IsSignatory: true, ContactID: "c9"},
			want:       true,
		},
		{
			name:       "untargeted field hidden from non-signatory",
			recipients: nil,
			viewer:     Viewer{ContactID: "c9"},
			want:       false,
		},
		{
			name:       "viewer without contact identity sees only untargeted fields",
			recipients: []string{"c1"},
			viewer:     Viewer{IsSignatory: true},
			want:       false,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Visible(true, tc.recipients, tc.viewer, owner); got != tc.want {
				t.Errorf("Visible = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestVisiblePublicDocument(t *testing.T) {
	cases := []struct {
		name       string
		recipients []string
		viewer     Viewer
		owner      Owner
		want       bool
	}{
		{
			name:       "untargeted field open to any signatory",
			recipients: nil,
			viewer:     Viewer{IsSignatory: true},
			owner:      Owner{ContactID: "owner-contact", IsVisible: true},
			want:       true,
		},
		{
			name:       "untargeted field hidden from outsiders",
			recipients: nil,
			viewer:     Viewer{},
			owner:      Owner{ContactID: "owner-contact", IsVisible: true},
			want:       false,
		},
		{
			name:       "field excluding a hidden owner is open to signatories",
			recipients: []string{"c1"},
			viewer:     Viewer{IsSignatory: true, ContactID: "c2"},
			owner:      Owner{ContactID: "owner-contact", IsVisible: false},
			want:       true,
		},
		{
			name:       "field targeting the visible owner stays restricted",
			recipients: []string{"owner-contact"},
			viewer:     Viewer{IsSignatory: true, ContactID: "c2"},
			owner:      Owner{ContactID: "owner-contact", IsVisible: true},
			want:       false,
		},
		{
			name:       "restricted field shown to its recipient",
			recipients: []string{"c2", "owner-contact"},
			viewer:     Viewer{IsSignatory: true, ContactID: "c2"},
			owner:      Owner{ContactID: "owner-contact", IsVisible: true},
			want:       true,
		},
		{
			name:       "restricted field hidden from non-recipient signatory",
			recipients: []string{"c1", "owner-contact"},
			viewer:     Viewer{IsSignatory: true, ContactID: "c2"},
			owner:      Owner{ContactID: "owner-contact", IsVisible: true},
			want:       false,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Visible(false, tc.recipients, tc.viewer, tc.owner); got != tc.want {
				t.Errorf("Visible = %v, want %v", got, tc.want)
			}
		})
	}
}
