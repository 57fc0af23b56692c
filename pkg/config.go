package mibi

type Configuration struct {
	Verbosity       int         `json:"verbosity"`
	DataDir         string      `json:"data_dir"`
	FileOut         string      `json:"file_out"`
	Fovs            []string    `json:"fovs"`
	PanelSource     PanelSource `json:"panel_source"`
	PanelFile       string      `json:"panel_file"`
	RunNumber       int         `json:"run_number"`
	NoDB            bool        `json:"no_db"`
	Host            string      `json:"host"`
	User            string      `json:"user"`
	Passwd          string      `json:"pass"`
	DBName          string      `json:"dbname"`
	NumWorkers      int         `json:"num_workers"`
	BufferSize      int         `json:"buffer_size"`
	TimeResolution  float64     `json:"time_resolution"`
	PanelLowOffset  float64     `json:"panel_low_offset"`
	PanelHighOffset float64     `json:"panel_high_offset"`
	Channels        []string    `json:"channels"`
	Intensities     []string    `json:"intensities"`
	AllIntensities  bool        `json:"all_intensities"`
	WriteData       bool        `json:"write_data"`
	Live            bool        `json:"live"`
	TimeoutSec      int         `json:"timeout_sec"`
	PollIntervalMs  int         `json:"poll_interval_ms"`
	Remote          bool        `json:"remote"`
	Endpoint        string      `json:"endpoint"`
	AccessKey       string      `json:"access_key"`
	SecretKey       string      `json:"secret_key"`
	Bucket          string      `json:"bucket"`
	UseSSL          bool        `json:"use_ssl"`
	CacheDir        string      `json:"cache_dir"`
	ReportOut       string      `json:"report_out"`
	LogFile         string      `json:"log_file"`
	LogMaxSizeMB    int         `json:"log_max_size_mb"`
	LogMaxBackups   int         `json:"log_max_backups"`
	LogMaxAgeDays   int         `json:"log_max_age_days"`
}

var configuration Configuration

func GetConfiguration() Configuration {
	return configuration
}

func SetConfiguration(config Configuration) {
	configuration = config
}
