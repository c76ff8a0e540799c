package state

// ModalState visibilidad de los dos overlays. Son independientes: abrir uno no cierra el otro.
type ModalState struct {
	DetailsOpen bool `json:"isDetailsModalOpen"`
	OrderOpen   bool `json:"isOrderModalOpen"`
}

func (s *ModalState) withDetails(open bool) *ModalState {
	if s.DetailsOpen == open {
		return s
	}
	next := *s
	next.DetailsOpen = open
	return &next
}

func (s *ModalState) withOrder(open bool) *ModalState {
	if s.OrderOpen == open {
		return s
	}
	next := *s
	next.OrderOpen = open
	return &next
}

func (c *Container) OpenDetailsModal() {
	c.apply("modal/openDetails", func(r RootState) RootState {
		r.Modal = r.Modal.withDetails(true)
		return r
	})
}

func (c *Container) CloseDetailsModal() {
	c.apply("modal/closeDetails", func(r RootState) RootState {
		r.Modal = r.Modal.withDetails(false)
		return r
	})
}

func (c *Container) OpenOrderModal() {
	c.apply("modal/openOrder", func(r RootState) RootState {
		r.Modal = r.Modal.withOrder(true)
		return r
	})
}

func (c *Container) CloseOrderModal() {
	c.apply("modal/closeOrder", func(r RootState) RootState {
		r.Modal = r.Modal.withOrder(false)
		return r
	})
}
