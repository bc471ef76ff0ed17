package book

import (
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ShelfGroup 书架分组
type ShelfGroup struct {
	Shelf    string
	Sections []SectionGroup
}

// SectionGroup 区段分组
type SectionGroup struct {
	Section string
	Books   []PositionedBook
}

// PositionedBook 带序号的图书
type PositionedBook struct {
	*Book
	Position int
}

// SkippedLocation 无法解析而未进入位置树的图书
type SkippedLocation struct {
	ISBN     int64
	Location string
	Reason   string
}

// LocationCode 解析后的位置编码 "P-A12" → {P, A, 12}
type LocationCode struct {
	Shelf    string
	Section  string
	Position int
}

// ParseLocation 解析位置编码
// 规则:
// 1. 必须包含"-",按第一个"-"拆分为书架和位置段
// 2. 位置段至少2个字符:首字符为区段,其余为正整数序号
// 3. 书架、区段为空或序号为0都视为无效
func ParseLocation(location string) (LocationCode, string, bool) {
	shelf, position, found := strings.Cut(location, "-")
	if !found {
		return LocationCode{}, "missing separator", false
	}
	if utf8.RuneCountInString(position) <= 1 {
		return LocationCode{}, "position too short", false
	}

	// 区段取第一个字符(按rune,兼容非ASCII)
	_, size := utf8.DecodeRuneInString(position)
	section, digits := position[:size], position[size:]

	n, err := strconv.ParseUint(digits, 10, 31)
	if err != nil {
		return LocationCode{}, "position is not a number", false
	}
	if shelf == "" || section == "" || n == 0 {
		return LocationCode{}, "empty shelf, section or zero position", false
	}

	return LocationCode{Shelf: shelf, Section: section, Position: int(n)}, "", true
}

// OrganizeLocations 将图书按 书架 → 区段 → 序号 组织成树
//
// 无法解析的位置不会报错,对应图书只出现在skipped中。
// 排序:书架、区段按编码字典序升序,区段内按序号升序(序号相同保持输入顺序)。
// 纯函数,同样的输入总是得到同样的输出。
func OrganizeLocations(books []*Book) ([]ShelfGroup, []SkippedLocation) {
	shelves := make(map[string]map[string][]PositionedBook)
	var skipped []SkippedLocation

	for _, b := range books {
		code, reason, ok := ParseLocation(b.Location)
		if !ok {
			skipped = append(skipped, SkippedLocation{ISBN: b.ISBN, Location: b.Location, Reason: reason})
			continue
		}

		sections, exists := shelves[code.Shelf]
		if !exists {
			sections = make(map[string][]PositionedBook)
			shelves[code.Shelf] = sections
		}
		sections[code.Section] = append(sections[code.Section], PositionedBook{Book: b, Position: code.Position})
	}

	tree := make([]ShelfGroup, 0, len(shelves))
	for _, shelf := range sortedKeys(shelves) {
		sections := shelves[shelf]
		group := ShelfGroup{Shelf: shelf, Sections: make([]SectionGroup, 0, len(sections))}

		for _, section := range sortedKeys(sections) {
			positioned := sections[section]
			sort.SliceStable(positioned, func(i, j int) bool {
				return positioned[i].Position < positioned[j].Position
			})
			group.Sections = append(group.Sections, SectionGroup{Section: section, Books: positioned})
		}
		tree = append(tree, group)
	}

	return tree, skipped
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
