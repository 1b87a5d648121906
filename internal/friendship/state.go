// Package friendship 好友申请状态机。
//
// 对有序对 (A, B) 的状态只有三种：NONE（无记录）、UNAPPROVED（A 已申请、B 未回应）、
// APPROVED（双方互加）。互为好友只用一条 approved 记录表示，因此一对用户之间
// 任一时刻最多存在一个方向的记录。Transition 是纯函数，返回需要落库的变更，
// 事务、加锁与持久化由调用方负责。
package friendship

import (
	"fmt"

	"github.com/d60-Lab/filmgraph/internal/model"
)

// State 单方向记录的状态
type State int

const (
	None State = iota
	Unapproved
	Approved
)

func (s State) String() string {
	switch s {
	case Unapproved:
		return "UNAPPROVED"
	case Approved:
		return "APPROVED"
	default:
		return "NONE"
	}
}

// FromStatus 持久化状态 -> 状态机状态
func FromStatus(s model.FriendRequestStatus) State {
	switch s {
	case model.FriendRequestApproved:
		return Approved
	case model.FriendRequestUnapproved:
		return Unapproved
	default:
		return None
	}
}

// Status 状态机状态 -> 持久化状态，None 无对应值
func (s State) Status() model.FriendRequestStatus {
	switch s {
	case Approved:
		return model.FriendRequestApproved
	case Unapproved:
		return model.FriendRequestUnapproved
	default:
		return ""
	}
}

// Op 对 (A, B) 发起的操作
type Op int

const (
	OpAdd Op = iota
	OpDelete
)

func (o Op) String() string {
	if o == OpDelete {
		return "DELETE"
	}
	return "ADD"
}

// Direction 变更作用的记录方向，相对发起人 A 而言
type Direction int

const (
	Outgoing Direction = iota // A -> B
	Incoming                  // B -> A
)

// MutationKind 行级变更类型
type MutationKind int

const (
	Create MutationKind = iota
	Update
	Delete
)

// Mutation 一条需要落库的行变更
type Mutation struct {
	Kind      MutationKind
	Direction Direction
	Status    State
}

func (m Mutation) String() string {
	dir := "A->B"
	if m.Direction == Incoming {
		dir = "B->A"
	}
	switch m.Kind {
	case Create:
		return fmt.Sprintf("create %s %s", dir, m.Status)
	case Update:
		return fmt.Sprintf("update %s %s", dir, m.Status)
	default:
		return "delete " + dir
	}
}

// Pair 从发起人 A 视角看到的两条记录状态
type Pair struct {
	Outgoing State // A -> B
	Incoming State // B -> A
}

// Transition 计算 op 作用于 pair 后需要执行的变更，nil 表示空操作。
// 出方向记录存在时优先按出方向处理。
func Transition(p Pair, op Op) []Mutation {
	switch op {
	case OpAdd:
		return add(p)
	case OpDelete:
		return remove(p)
	}
	return nil
}

func add(p Pair) []Mutation {
	if p.Outgoing != None {
		return nil
	}
	switch p.Incoming {
	case Unapproved:
		return []Mutation{{Kind: Update, Direction: Incoming, Status: Approved}}
	case Approved:
		return nil
	}
	return []Mutation{{Kind: Create, Direction: Outgoing, Status: Unapproved}}
}

func remove(p Pair) []Mutation {
	switch p.Outgoing {
	case Unapproved:
		return []Mutation{{Kind: Delete, Direction: Outgoing}}
	case Approved:
		return []Mutation{
			{Kind: Delete, Direction: Outgoing},
			{Kind: Create, Direction: Incoming, Status: Unapproved},
		}
	}
	if p.Incoming == Approved {
		return []Mutation{{Kind: Update, Direction: Incoming, Status: Unapproved}}
	}
	return nil
}

// Apply 在内存中应用变更，用于校验转移结果
func Apply(p Pair, muts []Mutation) Pair {
	for _, m := range muts {
		target := &p.Outgoing
		if m.Direction == Incoming {
			target = &p.Incoming
		}
		switch m.Kind {
		case Create, Update:
			*target = m.Status
		case Delete:
			*target = None
		}
	}
	return p
}

// AreFriends 该有序对是否构成双向好友
func (p Pair) AreFriends() bool {
	return p.Outgoing == Approved || p.Incoming == Approved
}
