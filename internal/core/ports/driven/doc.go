// Package driven declares what the core needs from infrastructure.
//
// Stores (RecordStore, CaseStore, ConfigStore) and the RelevanceProvider
// must be supplied. AdvisorProvider, ReportRenderer and ConfigWatcher may
// be nil: a case without an advisor carries no advice, a report without a
// renderer is returned as its payload, and configuration is read once.
//
// Nothing here imports an adapter; domain is the only internal dependency.
package driven
