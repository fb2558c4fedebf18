package gallery

// Paginate возвращает срез ids[(page-1)*size : page*size].
// noResults = true, если срез пуст.
func Paginate(ids []string, page, pageSize int) (slice []string, noResults bool) {
	start, end := bounds(len(ids), page, pageSize)
	slice = append([]string(nil), ids[start:end]...)
	return slice, len(slice) == 0
}

func paginateAssets(assets []AssetMeta, page, pageSize int) ([]AssetMeta, bool) {
	start, end := bounds(len(assets), page, pageSize)
	slice := append([]AssetMeta(nil), assets[start:end]...)
	return slice, len(slice) == 0
}

func bounds(n, page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		return 0, 0
	}

	start := (page - 1) * pageSize
	if start >= n {
		return n, n
	}
	end := start + pageSize
	if end > n {
		end = n
	}
	return start, end
}
