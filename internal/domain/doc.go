// Package domain defines the core business entities of the task
// orchestration engine: tasks, task groups, and users, together with
// their enumerations and validation rules.
package domain
