package utils

import "regexp"

// 号码解析/格式化由接入层完成，这里只做 E.164 形态校验，
// 挡掉明显的脏数据，真正的唯一性由 phone 唯一索引兜底。
var e164 = regexp.MustCompile(`^\+[1-9][0-9]{6,14}$`)

func ValidE164(phone string) bool {
	return e164.MatchString(phone)
}
