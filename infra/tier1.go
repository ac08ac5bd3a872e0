package infra

// Tier1Provider holds the connection settings of the external comprehensive
// screening provider (sanctions + PEP + adverse media coverage).
type Tier1Provider struct {
	host   string
	apiKey string
}

func InitializeTier1Provider(host, apiKey string) Tier1Provider {
	return Tier1Provider{
		host:   host,
		apiKey: apiKey,
	}
}

func (p Tier1Provider) IsConfigured() bool {
	return p.host != ""
}

func (p Tier1Provider) Host() string {
	return p.host
}

func (p Tier1Provider) ApiKey() string {
	return p.apiKey
}
