package petitions

import "gorm.io/gorm"

// GetPage materializes the 1-based page of an ordered query and computes the
// total page count over the whole match set. Pages past the end come back
// empty with totalPages still correct; page <= 0 is a caller contract
// violation and is rejected at the HTTP boundary.
func GetPage[T any](q *gorm.DB, page int) ([]T, int, error) {
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	elements := make([]T, 0, PageSize)
	err := q.Offset((page - 1) * PageSize).Limit(PageSize).Find(&elements).Error
	if err != nil {
		return nil, 0, err
	}

	totalPages := int((total + PageSize - 1) / PageSize)
	return elements, totalPages, nil
}
