package configs

// Schema constrains what the config files may contain.
const Schema = `
engine?: {
	maxCallDepth?: int & >0
	maxHistory?:   int & >=0
	maxSteps?:     int & >=0
	seed?:         int
}
world?: {
	grid?: [...string]
}
`

type Engine struct {
	MaxCallDepth int    `json:"maxCallDepth"`
	MaxHistory   int    `json:"maxHistory"`
	MaxSteps     int    `json:"maxSteps"`
	Seed         uint64 `json:"seed"`
}
