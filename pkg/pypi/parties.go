// Copyright 2026 The pymeta Authors
// SPDX-License-Identifier: Apache-2.0

package pypi

// Parties extracts the author and maintainer contacts of src, in that
// order. A party is emitted when either its name or its email field is
// present; identical contacts in different roles are kept separate.
func Parties(src any) []Party {
	var parties []Party
	for _, role := range []struct {
		role, nameField, emailField string
	}{
		{RoleAuthor, "Author", "Author-email"},
		{RoleMaintainer, "Maintainer", "Maintainer-email"},
	} {
		name := Lookup(src, role.nameField)
		email := Lookup(src, role.emailField)
		if name == "" && email == "" {
			continue
		}
		parties = append(parties, Party{
			Type:  PartyPerson,
			Role:  role.role,
			Name:  name,
			Email: email,
		})
	}
	return parties
}
