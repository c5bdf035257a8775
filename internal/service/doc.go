// Package service implements the application's business operations on
// top of the store interfaces: plain task and group management
// (TaskService) and the reasoning-backed orchestration operations with
// their deterministic local fallbacks (TaskOrchestrator).
package service
