package types

const (
	StatusSuccess = "success"
	StatusFail    = "fail"
)

// Location is one geolocation result as returned by the ip-api service.
// Status is always present; Message is populated on failure.
// Query echoes the original target. Fields not requested by the query
// decode to their zero values.
type Location struct {
	Status        string  `json:"status"`
	Message       string  `json:"message,omitempty"`
	Query         string  `json:"query"`
	Continent     string  `json:"continent,omitempty"`
	ContinentCode string  `json:"continentCode,omitempty"`
	Country       string  `json:"country,omitempty"`
	CountryCode   string  `json:"countryCode,omitempty"`
	Region        string  `json:"region,omitempty"`
	RegionName    string  `json:"regionName,omitempty"`
	City          string  `json:"city,omitempty"`
	District      string  `json:"district,omitempty"`
	Zip           string  `json:"zip,omitempty"`
	Lat           float64 `json:"lat,omitempty"`
	Lon           float64 `json:"lon,omitempty"`
	Timezone      string  `json:"timezone,omitempty"`
	Offset        int     `json:"offset,omitempty"`
	Currency      string  `json:"currency,omitempty"`
	Isp           string  `json:"isp,omitempty"`
	Org           string  `json:"org,omitempty"`
	As            string  `json:"as,omitempty"`
	AsName        string  `json:"asname,omitempty"`
	Reverse       string  `json:"reverse,omitempty"`
	Mobile        bool    `json:"mobile,omitempty"`
	Proxy         bool    `json:"proxy,omitempty"`
	Hosting       bool    `json:"hosting,omitempty"`
}

// Success reports whether the service resolved the query.
// A "fail" status is a normal result, not a client error: it carries
// the service's reason in Message.
func (l Location) Success() bool {
	return l.Status == StatusSuccess
}

// Fail builds a fail-status result for a query that never reached the
// service, carrying the reason in Message the same way the service does.
func Fail(target string, message string) Location {
	return Location{
		Status:  StatusFail,
		Message: message,
		Query:   target,
	}
}

// ServiceFields are always requested regardless of the user's field
// selection; without them results cannot be interpreted or re-associated
// with their queries.
var ServiceFields = []string{"status", "message", "query"}

// Fields lists every response field the service can return,
// for callers that build field selections dynamically.
var Fields = []string{
	"continent",
	"continentCode",
	"country",
	"countryCode",
	"region",
	"regionName",
	"city",
	"district",
	"zip",
	"lat",
	"lon",
	"timezone",
	"offset",
	"currency",
	"isp",
	"org",
	"as",
	"asname",
	"reverse",
	"mobile",
	"proxy",
	"hosting",
}

// Langs lists the language codes the service supports for localized
// textual fields.
var Langs = []string{"en", "de", "es", "pt-BR", "fr", "ja", "zh-CN", "ru"}
