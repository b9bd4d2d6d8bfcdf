// Package domain contains the core business entities of the to-do service:
// users, their tasks and the refresh tokens issued to them. It holds the
// validation rules for those entities and is independent of any storage or
// delivery mechanism.
package domain
