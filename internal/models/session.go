package models

import "time"

// Session — состояние клиента: текущая «страна» и флаги скрытых подсказок.
// Не является источником истины: страна всегда перечитывается из хранилища.
type Session struct {
	ID               string
	CountryID        string
	TermsAccepted    bool
	AlertDismissed   bool
	DevInfoDismissed bool
	UpdatedAt        time.Time
}
