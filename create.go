package tagview

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Create binds arguments to a fresh component. promote is the promotion
// table of the component's tags; uniqueID, when it is a 16 character
// alphanumeric string, becomes the component id verbatim.
//
// Create runs these steps in order:
//  1. split the tag and promote its segments into named arguments
//  2. let an ArgumentNormalizer rewrite the arguments
//  3. resolve the tag, preferring a FixedTagger's tag
//  4. resolve and validate the component name
//  5. hand content to a ContentHolder
//  6. wrap the attributes, moving those that name an `arg` field into
//     the named arguments
//  7. assign the unique id
//  8. bind named and positional arguments
//
// Content passed to a component that is not a ContentHolder fails with
// ErrContentNotSupported. Arguments no field or method accepts fail with an
// *ArgumentError; every argument is still attempted.
func Create(ctx context.Context, c Component, args Arguments, promote Promotions, uniqueID string) error {
	return create(ctx, c, "", args, promote, uniqueID)
}

func create(ctx context.Context, c Component, name string, args Arguments, promote Promotions, uniqueID string) error {
	b := c.base()
	if b.uniqueID != "" {
		return fmt.Errorf("%w: %s %s", ErrAlreadyCreated, b.name, b.uniqueID)
	}

	PromoteTag(&args, promote)

	if n, ok := c.(ArgumentNormalizer); ok {
		if err := n.NormalizeArguments(&args); err != nil {
			return fmt.Errorf("tagview: normalize arguments: %w", err)
		}
	}

	tag := args.Tag
	if ft, ok := c.(FixedTagger); ok && ft.FixedTag() != "" {
		tag = ft.FixedTag()
	}
	if tag != "" {
		if err := ValidateTag(tag); err != nil {
			return err
		}
	}

	if name == "" {
		var err error
		if name, err = ComponentName(c); err != nil {
			return err
		}
	} else if err := ValidateName(name); err != nil {
		return err
	}

	holder, holds := c.(ContentHolder)
	if len(args.Content) > 0 && !holds {
		return fmt.Errorf("%w: %s (%T) was given %d content items; embed tagview.InnerContent",
			ErrContentNotSupported, name, c, len(args.Content))
	}
	if holds {
		holder.SetContent(NewContent(args.Content...))
	}

	attributes := args.Attributes
	if attributes == nil {
		attributes = NewAttributes()
	}
	args.Attributes = attributes
	attributeArguments(c, &args)

	id, err := UniqueID(name, args, uniqueID)
	if err != nil {
		return fmt.Errorf("tagview: unique id for %s: %w", name, err)
	}

	b.name = name
	b.tag = tag
	b.attributes = attributes
	b.uniqueID = id

	var errs []error
	for _, key := range args.namedKeys() {
		if err := bindArgument(c, key, args.Named[key]); err != nil {
			errs = append(errs, err)
		}
	}
	for _, position := range args.positions() {
		if err := bindArgument(c, args.Positional[position], nil); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		Logger(ctx).Warn("component arguments not bound",
			zap.String("component", name), zap.String("id", id), zap.Errors("errors", errs))
		return errors.Join(errs...)
	}
	return nil
}
