package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"stroyka/internal/order/model"
)

func (c *Client) GetWorkTypes(ctx context.Context, search string) ([]model.WorkType, error) {
	q := url.Values{}
	q.Set("serviceTree", "WORK_TYPE")
	q.Set("parentId", "1")
	if search != "" {
		q.Set("search", search)
	}

	p, err := c.Do(ctx, http.MethodGet, c.cfg.DictionaryAPIURL+"/dictionary/service?"+q.Encode(), nil, nil)
	if err != nil {
		return nil, err
	}
	var workTypes []model.WorkType
	if err := p.Decode(&workTypes); err != nil {
		return nil, err
	}
	return workTypes, nil
}

// GetAddresses lists the regions of the KATO classifier.
func (c *Client) GetAddresses(ctx context.Context) ([]model.Address, error) {
	p, err := c.Do(ctx, http.MethodGet, c.cfg.DictionaryAPIURL+"/dictionary/kato?katoType=REGION", nil, nil)
	if err != nil {
		return nil, err
	}
	var addresses []model.Address
	if err := p.Decode(&addresses); err != nil {
		return nil, err
	}
	return addresses, nil
}
