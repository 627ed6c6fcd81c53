// Package models содержит доменные сущности lapa-service.
// Типы не зависят от хранилища и транспорта; временные метки — в UTC
// с точностью до миллисекунд (так их хранит MongoDB).
package models

import "time"

// Country — зарегистрированная «страна» (персона пользователя).
//
// Особенности:
//   - ID непрозрачен: ObjectID в hex для MongoDB, UUIDv4 для in-memory;
//   - CountryName уникально без учёта регистра на момент регистрации;
//   - RegistrationDate неизменяема.
type Country struct {
	ID               string
	CountryName      string
	OwnerName        string
	RegistrationDate time.Time
}
