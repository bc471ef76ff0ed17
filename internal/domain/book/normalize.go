package book

import "strings"

// NormalizeOrDefault 去除首尾空白并转为大写,空白输入返回缺省值
//
//	NormalizeOrDefault("  garcía ", "S.A") == "GARCÍA"
//	NormalizeOrDefault("   ", "S.A")      == "S.A"
func NormalizeOrDefault(input, def string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return def
	}
	return strings.ToUpper(trimmed)
}

// Normalize 规范化作者、出版社、出版年份、书架位置
// ISBN与书名原样保留
func (d Draft) Normalize() Draft {
	d.Author = NormalizeOrDefault(d.Author, DefaultAuthor)
	d.Publisher = NormalizeOrDefault(d.Publisher, DefaultPublisher)
	d.PublicationYear = NormalizeOrDefault(d.PublicationYear, DefaultPublicationYear)
	d.Location = NormalizeOrDefault(d.Location, DefaultLocation)
	return d
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
