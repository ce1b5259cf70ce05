package serviceorder

import (
	"github.com/jhoicas/OrdemServico-api/internal/application/dto"
	"github.com/jhoicas/OrdemServico-api/internal/domain/entity"
	"github.com/jhoicas/OrdemServico-api/internal/domain/repository"
)

// ToOrderResponse convierte la OS con sus relaciones al DTO de salida.
func ToOrderResponse(d *repository.OrderDetails) dto.OrderResponse {
	o := d.Order
	resp := dto.OrderResponse{
		ID:                   o.ID,
		Number:               o.Number,
		IssueDate:            o.IssueDate.Format("2006-01-02"),
		ProfessionalID:       o.ProfessionalID,
		ClientID:             o.ClientID,
		MaterialTotal:        o.MaterialTotal,
		LaborTotal:           o.LaborTotal,
		GeneralBudget:        o.GeneralBudget,
		DiscountType:         string(o.DiscountType),
		DiscountValue:        o.DiscountValue,
		SurchargePercentage:  o.SurchargePercentage,
		FinalTotal:           o.FinalTotal,
		Status:               o.Status,
		PaymentMethod:        o.PaymentMethod,
		IsPaid:               o.IsPaid,
		PaymentDate:          o.PaymentDate,
		InternalObservations: o.InternalObservations,
		CreatedAt:            o.CreatedAt,
		Items:                toItemResponses(o.Items),
	}
	if o.VehicleID != nil {
		resp.VehicleID = *o.VehicleID
	}
	if d.Client != nil {
		resp.ClientName = d.Client.Name
		resp.ClientPhone = d.Client.Phone
	}
	if d.Vehicle != nil {
		resp.Vehicle = d.Vehicle.Label()
	}
	if d.Professional != nil {
		resp.ProfessionalName = d.Professional.ProfessionalName
	}
	return resp
}

func toItemResponses(items []*entity.ServiceOrderItem) []dto.OrderItemResponse {
	out := make([]dto.OrderItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.OrderItemResponse{
			ID:          it.ID,
			Name:        it.Name,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TotalPrice:  it.TotalPrice,
		})
	}
	return out
}
