package postgres

import (
	"github.com/vncsmyrnk/polls/internal/core/domain"
)

func NewUserRepository() *Entity[domain.User] {
	return &Entity[domain.User]{table: usersTable, scan: scanUser}
}

func scanUser(row scanner) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.IsSuperuser, &u.Active); err != nil {
		return nil, err
	}
	return &u, nil
}
