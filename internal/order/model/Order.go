package model

/*
Order — заявка заказчика на строительные работы, идентифицируется регистрационным номером;
EquipmentOrder — заявка на спецтехнику, та же структура, другой эндпоинт;
поля приходят из внешнего API как есть, локально ничего не валидируется.
*/
type Order struct {
	ID            Flex       `json:"id,omitempty"`
	RegNumber     Flex       `json:"regNumber,omitempty"`
	Name          string     `json:"name,omitempty"`
	Description   string     `json:"description,omitempty"`
	OrderAmount   Flex       `json:"orderAmount,omitempty"`
	AdvanceAmount Flex       `json:"advanceAmount,omitempty"`
	Negotiable    bool       `json:"negotiable,omitempty"`
	ViewCount     Flex       `json:"viewCount,omitempty"`
	PlannedDate   Flex       `json:"plannedDate,omitempty"`
	CreatedDate   Flex       `json:"createdDate,omitempty"`
	Address       *Address   `json:"address,omitempty"`
	UserInfo      *UserInfo  `json:"userInfo,omitempty"`
	Categories    Categories `json:"categories"`

	// поля списка заказов
	Email  string `json:"email,omitempty"`
	Phone  string `json:"phone,omitempty"`
	Status string `json:"status,omitempty"`
}

type EquipmentOrder = Order

type Address struct {
	Code Flex `json:"code,omitempty"`
	Name Name `json:"name"`
}

type UserInfo struct {
	Name string `json:"name,omitempty"`
}

type WorkType struct {
	ID   int64 `json:"id"`
	Name Name  `json:"name"`
}

type Ref struct {
	ID   Flex   `json:"id,omitempty"`
	Name string `json:"name"`
}

type Categories struct {
	Category    *Ref `json:"category,omitempty"`
	Subcategory *Ref `json:"subcategory,omitempty"`
	ServiceType *Ref `json:"serviceType,omitempty"`
	WorkType    *Ref `json:"workType,omitempty"`
}

// AddressName returns the city name or "" when the order carries no address.
func (o *Order) AddressName() string {
	if o == nil || o.Address == nil {
		return ""
	}
	return o.Address.Name.String()
}

func (o *Order) CustomerName() string {
	if o == nil || o.UserInfo == nil {
		return ""
	}
	return o.UserInfo.Name
}

func (c Categories) CategoryName() string {
	if c.Category == nil {
		return ""
	}
	return c.Category.Name
}

func (c Categories) SubcategoryName() string {
	if c.Subcategory == nil {
		return ""
	}
	return c.Subcategory.Name
}
