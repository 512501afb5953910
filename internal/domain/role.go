package domain

// Role 封闭角色集，不做字符串数组的临时包含判断
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// RoleSet 以 JSON 序列化落库；RoleUser 恒为隐含角色
type RoleSet []Role

func (s RoleSet) Has(r Role) bool {
	if r == RoleUser {
		return true
	}
	for _, x := range s {
		if x == r {
			return true
		}
	}
	return false
}

// With 返回追加后的去重集合，原集合不变
func (s RoleSet) With(r Role) RoleSet {
	if r == RoleUser {
		return s
	}
	for _, x := range s {
		if x == r {
			return s
		}
	}
	out := make(RoleSet, len(s), len(s)+1)
	copy(out, s)
	return append(out, r)
}

// Effective 含隐含的 user 角色，供 JWT claims 使用
func (s RoleSet) Effective() []string {
	out := []string{string(RoleUser)}
	for _, r := range s {
		if r != RoleUser {
			out = append(out, string(r))
		}
	}
	return out
}

// Privileged 版主或管理员
func (s RoleSet) Privileged() bool {
	return s.Has(RoleModerator) || s.Has(RoleAdmin)
}
