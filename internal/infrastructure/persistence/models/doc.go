// Package models holds the GORM row types behind the catalog and cart
// tables. Domain types never carry gorm tags; each model has ToDomain and
// a FromDomain constructor used by the repositories.
//
// Variations and cart lines both key on an option_key column holding the
// ascending option id list, so one option combination maps to one row
// whatever order the options arrived in.
package models
