package spec

import (
	"github.com/ElisevanderPol/marl-homomorphic-networks/utils/errutils"
	"github.com/ElisevanderPol/marl-homomorphic-networks/utils/intutils"
)

// MaxJointActions is the largest number of joint actions for which the
// joint action table is enumerated. Centralized spaces larger than this
// cannot be constructed.
const MaxJointActions = 1 << 20

// JointAction describes the discrete action space shared by NAgents
// agents, each of which chooses one of NActions actions.
//
// A JointAction is immutable once constructed and is safe for
// concurrent use.
type JointAction struct {
	nAgents   int
	nActions  int
	spaceType SpaceType

	// numJoint is NActions ^ NAgents, or -1 if it overflows an int
	numJoint int

	// table holds every joint action in lexicographic order. It is nil
	// if the space is decentralized and numJoint > MaxJointActions.
	table [][]int
}

// NewJointAction returns a new joint action space of nAgents agents
// with nActions actions each.
func NewJointAction(nAgents, nActions int, decentralized bool) (*JointAction,
	error) {
	if nAgents < 1 {
		return nil, errutils.New(errutils.InvalidConfiguration,
			"newJointAction", "nAgents must be >= 1, have %d", nAgents)
	}
	if nActions < 1 {
		return nil, errutils.New(errutils.InvalidConfiguration,
			"newJointAction", "nActions must be >= 1, have %d", nActions)
	}

	spaceType := Centralized
	if decentralized {
		spaceType = Decentralized
	}

	numJoint, ok := intutils.Pow(nActions, nAgents)
	if !ok {
		numJoint = -1
	}

	if spaceType == Centralized && (numJoint < 0 || numJoint > MaxJointActions) {
		return nil, errutils.New(errutils.InvalidConfiguration,
			"newJointAction", "centralized space of %d^%d joint actions "+
				"exceeds %d", nActions, nAgents, MaxJointActions)
	}

	j := &JointAction{
		nAgents:   nAgents,
		nActions:  nActions,
		spaceType: spaceType,
		numJoint:  numJoint,
	}

	if numJoint > 0 && numJoint <= MaxJointActions {
		j.table = make([][]int, numJoint)
		for i := range j.table {
			j.table[i] = j.decode(i)
		}
	}

	return j, nil
}

// NAgents returns the number of agents
func (j *JointAction) NAgents() int {
	return j.nAgents
}

// NActions returns the number of actions available to each agent
func (j *JointAction) NActions() int {
	return j.nActions
}

// Decentralized returns whether each agent has its own distribution
func (j *JointAction) Decentralized() bool {
	return j.spaceType == Decentralized
}

// Type returns the SpaceType of the joint action space
func (j *JointAction) Type() SpaceType {
	return j.spaceType
}

// JointDim returns the width of the joint action space. This is
// NAgents * NActions for decentralized spaces and NActions ^ NAgents
// for centralized spaces.
func (j *JointAction) JointDim() int {
	if j.Decentralized() {
		return j.nAgents * j.nActions
	}
	return j.numJoint
}

// OutputSize returns the number of outputs a policy network must
// produce for the joint action space. It is the same as JointDim.
func (j *JointAction) OutputSize() int {
	return j.JointDim()
}

// Rows returns the number of categorical distributions held in a
// probability table of the space
func (j *JointAction) Rows() int {
	if j.Decentralized() {
		return j.nAgents
	}
	return 1
}

// Cols returns the number of categories of each distribution in a
// probability table of the space
func (j *JointAction) Cols() int {
	if j.Decentralized() {
		return j.nActions
	}
	return j.numJoint
}

// TrailingShape returns the shape [Rows, Cols] that trails every
// probability table of the space
func (j *JointAction) TrailingShape() []int {
	return []int{j.Rows(), j.Cols()}
}

// NumJointActions returns NActions ^ NAgents, the number of joint
// actions. The boolean return value is false if this overflows an int.
func (j *JointAction) NumJointActions() (int, bool) {
	return j.numJoint, j.numJoint >= 0
}

// JointActionTable returns a copy of every joint action in
// lexicographic order, so that JointActionTable()[i] is the tuple of
// per-agent actions of the i-th joint action. It returns nil if the
// table was too large to be enumerated.
func (j *JointAction) JointActionTable() [][]int {
	if j.table == nil {
		return nil
	}

	table := make([][]int, len(j.table))
	for i := range j.table {
		table[i] = append([]int(nil), j.table[i]...)
	}
	return table
}

// JointAction returns the per-agent actions of the i-th joint action
func (j *JointAction) JointAction(i int) ([]int, error) {
	if i < 0 || (j.numJoint >= 0 && i >= j.numJoint) {
		return nil, errutils.New(errutils.IndexOutOfRange, "jointAction",
			"joint index %d not in [0, %d)", i, j.numJoint)
	}

	if j.table != nil {
		return append([]int(nil), j.table[i]...), nil
	}
	return j.decode(i), nil
}

// JointIndex returns the index of the joint action made up of the
// argument per-agent actions. It is the inverse of JointAction.
func (j *JointAction) JointIndex(actions []int) (int, error) {
	if len(actions) != j.nAgents {
		return 0, errutils.New(errutils.Shape, "jointIndex",
			"want %d actions, have %d", j.nAgents, len(actions))
	}
	if j.numJoint < 0 {
		return 0, errutils.New(errutils.IndexOutOfRange, "jointIndex",
			"%d^%d joint actions overflow an int", j.nActions, j.nAgents)
	}

	index := 0
	for agent, a := range actions {
		if a < 0 || a >= j.nActions {
			return 0, errutils.New(errutils.IndexOutOfRange, "jointIndex",
				"action %d of agent %d not in [0, %d)", a, agent, j.nActions)
		}
		index = index*j.nActions + a
	}
	return index, nil
}

// decode converts a joint index into per-agent actions. The first
// agent's action is the most significant digit, which gives the
// lexicographic order of a Cartesian product.
func (j *JointAction) decode(i int) []int {
	actions := make([]int, j.nAgents)
	for agent := j.nAgents - 1; agent >= 0; agent-- {
		actions[agent] = i % j.nActions
		i /= j.nActions
	}
	return actions
}
