// Package spec describes the discrete action spaces shared by multiple
// agents
package spec

// SpaceType determines how a joint action space is represented by a
// policy. A Decentralized space has one distribution per agent, while
// a Centralized space has a single distribution over every combination
// of the agents' actions.
type SpaceType int

const (
	Decentralized SpaceType = iota
	Centralized
)

func (s SpaceType) String() string {
	switch s {
	case Decentralized:
		return "Decentralized"
	default:
		return "Centralized"
	}
}
