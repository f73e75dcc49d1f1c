package models

// MaxFolderNameLength limita o tamanho do nome de uma pasta
const MaxFolderNameLength = 255

// Folder agrupa produtos de um mesmo dono
type Folder struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	OwnerID int64  `json:"-"`
	Timestamps
}

// ProductFolder liga um produto a uma pasta
type ProductFolder struct {
	ID        int64
	ProductID int64
	FolderID  int64
	Timestamps
}
