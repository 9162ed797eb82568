package database

type FetchLogRepository interface {
	Record(entry FetchLog) error
	Recent(limit int) ([]FetchLog, error)
	Count() (int, error)
}
