// Package models defines the Gitee API resources the client decodes and the
// account profile the session manager persists. JSON tags follow the wire
// names of the Gitee Open API v5.
package models
