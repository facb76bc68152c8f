package types

// StringPtr 返回字符串指针，便于构造可选配置字段
func StringPtr(s string) *string { return &s }

// BoolPtr 返回布尔指针
func BoolPtr(b bool) *bool { return &b }

// IntPtr 返回整数指针
func IntPtr(i int) *int { return &i }

// Int64Ptr 返回int64指针
func Int64Ptr(i int64) *int64 { return &i }
