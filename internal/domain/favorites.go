package domain

// FavoriteSet — множество избранных товаров сессии. Порядок обхода совпадает с порядком добавления.
type FavoriteSet struct {
	ids   []string
	index map[string]struct{}
}

func NewFavoriteSet() *FavoriteSet {
	return &FavoriteSet{index: make(map[string]struct{})}
}

// Toggle добавляет товар в избранное или убирает его оттуда. Возвращает новое состояние.
func (f *FavoriteSet) Toggle(productID string) bool {
	if _, ok := f.index[productID]; ok {
		delete(f.index, productID)
		for i, id := range f.ids {
			if id == productID {
				f.ids = append(f.ids[:i], f.ids[i+1:]...)
				break
			}
		}
		return false
	}

	f.index[productID] = struct{}{}
	f.ids = append(f.ids, productID)
	return true
}

func (f *FavoriteSet) Contains(productID string) bool {
	_, ok := f.index[productID]
	return ok
}

func (f *FavoriteSet) Len() int {
	return len(f.ids)
}

// IDs возвращает копию списка избранного.
func (f *FavoriteSet) IDs() []string {
	out := make([]string, len(f.ids))
	copy(out, f.ids)
	return out
}
