package cfg

type Cfg struct {
	// Backend configuration
	BackendURL     string
	BackendTimeout int

	// Application configuration
	Port         string
	SourcesDir   string
	DBPath       string
	APIAccessKey string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
