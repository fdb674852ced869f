package util

// IDMap interns strings into dense integer ids. The first string seen
// gets id 0, the next id 1, and so on. GetID on an already interned
// string returns its existing id.
type IDMap struct {
	strToID map[string]int
	idToStr map[int]string
}

func NewIdMap() IDMap {
	return IDMap{
		strToID: make(map[string]int),
		idToStr: make(map[int]string),
	}
}

func (m IDMap) GetID(str string) int {
	if id, ok := m.strToID[str]; ok {
		return id
	}
	id := len(m.strToID)
	m.strToID[str] = id
	m.idToStr[id] = str
	return id
}

func (m IDMap) GetStr(id int) string {
	return m.idToStr[id]
}

func (m IDMap) Size() int {
	return len(m.strToID)
}
