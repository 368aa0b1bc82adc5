package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Account     AccountSvcFacade
	Fiscal      FiscalCalendarSvc
	Journal     JournalSvcFacade
	Balance     BalanceSvc
	Maintenance MaintenanceSvc
	Integrity   IntegritySvc
}

// MetricsRecorder receives domain events worth counting.
type MetricsRecorder interface {
	ObservePosting(result string)
	ObserveRetry(operation string)
	ObserveCacheLookup(hit bool)
}
