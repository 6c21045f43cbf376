package service

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/model"
	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/navigation"
)

// Launch адрес учебного объекта пункта. Без пункта открывается первый пункт
// организации по-умолчанию.
func (s *service) Launch(ctx context.Context, in model.LaunchIn) (out model.LaunchOut, err error) {
	defer s.monitoringTimingService("Launch", time.Now())
	defer func() { s.monitoringError("Launch", err) }()

	c, err := s.course(ctx, in.PackageID)
	if err != nil {
		return out, err
	}

	itemID := in.ItemID
	if itemID == "" {
		itemID = c.tree.StartItem
	}
	if itemID == "" {
		return out, errors.Wrapf(ErrItemNotFound, "package %s has no launchable item", in.PackageID)
	}

	item, found := c.manifest.FindItem(itemID)
	if !found {
		return out, errors.Wrap(ErrItemNotFound, itemID)
	}

	resource, err := c.manifest.Resolve(item)
	if err != nil {
		return out, err
	}

	out.Resource = resource
	out.URL = navigation.ContentURL(s.cfg.ContentPrefix, in.PackageID, resource.Href)
	if entry, ok := c.tree.Find(itemID); ok {
		out.Item = entry
	} else {
		// пункт другой организации
		out.Item = navigation.Entry{
			Identifier: item.Identifier,
			Title:      item.Title,
			URL:        out.URL,
			ScormType:  resource.ScormType,
			Enabled:    true,
			Visible:    item.Visible(),
		}
	}
	if next, ok := c.tree.Next(itemID); ok {
		out.Next = next.Identifier
	}
	if prev, ok := c.tree.Prev(itemID); ok {
		out.Prev = prev.Identifier
	}

	return out, nil
}
